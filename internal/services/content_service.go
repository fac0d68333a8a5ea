package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/staybright/offseason-campaigns/internal/types/business"
)

const offerTemplate = `
        <h1>Special Offer for You, User {{ .UserID }}!</h1>
        <p>As a valued {{ .UserTier }} customer, we are excited to offer you {{ .Discount }} due to {{ .SeasonCategory }} season performance.</p>
    `

var offerTmpl = template.Must(template.New("offer").Parse(offerTemplate))

// RenderOffer renders the HTML snippet sent to one user.
func RenderOffer(data business.OfferData) (string, error) {
	var buf bytes.Buffer
	if err := offerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render offer template: %w", err)
	}
	return buf.String(), nil
}
