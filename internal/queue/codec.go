package queue

import (
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

// Header keys for the six request attributes. NumberOfPeople carries a
// numeric value; the rest are plain strings.
const (
	attrLocation       = "Location"
	attrCuisine        = "Cuisine"
	attrNumberOfPeople = "NumberOfPeople"
	attrDiningDate     = "DiningDate"
	attrDiningTime     = "DiningTime"
	attrEmail          = "email"
)

// EncodeRequest serializes each request field as a typed message attribute.
// Empty fields are skipped; the decode side treats a missing attribute as an
// absent field.
func EncodeRequest(req model.FulfillmentRequest) []kafka.Header {
	headers := make([]kafka.Header, 0, 6)
	add := func(key, value string) {
		if value != "" {
			headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
		}
	}
	add(attrLocation, req.Location)
	add(attrCuisine, req.Cuisine)
	if req.NumberOfPeople > 0 {
		add(attrNumberOfPeople, strconv.Itoa(req.NumberOfPeople))
	}
	add(attrDiningDate, req.DiningDate)
	add(attrDiningTime, req.DiningTime)
	add(attrEmail, req.Email)
	return headers
}

// DecodeRequest rebuilds a request from message attributes. Missing or
// malformed attributes map to zero-valued fields, never an error: rendering
// downstream tolerates partial requests.
func DecodeRequest(msg kafka.Message) model.FulfillmentRequest {
	var req model.FulfillmentRequest
	for _, h := range msg.Headers {
		v := string(h.Value)
		switch h.Key {
		case attrLocation:
			req.Location = v
		case attrCuisine:
			req.Cuisine = v
		case attrNumberOfPeople:
			if n, err := strconv.Atoi(v); err == nil {
				req.NumberOfPeople = n
			}
		case attrDiningDate:
			req.DiningDate = v
		case attrDiningTime:
			req.DiningTime = v
		case attrEmail:
			req.Email = v
		}
	}
	return req
}
