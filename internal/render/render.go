// Package render turns enriched records plus the original request criteria
// into the HTML body delivered by email.
package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/g-an24/Dining-Concierge-Bot/internal/model"
)

const notSpecified = "not specified"

var bodyTmpl = template.Must(template.New("email").Parse(`<html><head></head><body><p>Here are the requested suggestions for the following details:<br>
Location: {{.Location}}<br>
Number of people: {{.NumberOfPeople}}<br>
Cuisine: {{.Cuisine}}<br>
Date: {{.Date}}<br>
Time: {{.Time}}<br>
</p><p><table style="width: 100%; border-collapse: collapse; border: 1px solid #ddd;">
<tr style="background-color: #f2f2f2;">
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Name</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Rating</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Review Count</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Address</th>
</tr>
{{- range .Rows}}
<tr>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Name}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Rating}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.ReviewCount}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Address}}</td>
</tr>
{{- end}}
</table></p></body></html>`))

type bodyData struct {
	Location       string
	NumberOfPeople string
	Cuisine        string
	Date           string
	Time           string
	Rows           []model.RestaurantRecord
}

// Body renders the result. Absent criteria show as "not specified"; an empty
// record set renders the header and an empty table, which is a valid
// deliverable result, not an error.
func Body(records []model.RestaurantRecord, req model.FulfillmentRequest) string {
	data := bodyData{
		Location:       orNotSpecified(req.Location),
		NumberOfPeople: notSpecified,
		Cuisine:        orNotSpecified(req.Cuisine),
		Date:           orNotSpecified(req.DiningDate),
		Time:           orNotSpecified(req.DiningTime),
	}
	if req.NumberOfPeople > 0 {
		data.NumberOfPeople = strconv.Itoa(req.NumberOfPeople)
	}
	for _, rec := range records {
		rec.Address = normalizeAddress(rec.Address)
		data.Rows = append(data.Rows, rec)
	}

	var b strings.Builder
	if err := bodyTmpl.Execute(&b, data); err != nil {
		// The template is static and the data is plain values; Execute
		// cannot fail outside programmer error.
		panic(err)
	}
	return b.String()
}

func orNotSpecified(v string) string {
	if v == "" {
		return notSpecified
	}
	return v
}

// normalizeAddress strips the list and quote punctuation the record store
// carried over from the raw address arrays.
func normalizeAddress(addr string) string {
	return strings.NewReplacer("[", "", "]", "", "'", "", `"`, "").Replace(addr)
}
