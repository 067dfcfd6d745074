// Package crm holds the OAuth scope catalog for the CRM platform integration.
package crm

import (
	"net/url"
	"strings"
)

var allScopes = []string{
	"businesses.readonly",
	"businesses.write",
	"calendars.readonly",
	"calendars.write",
	"calendars/events.readonly",
	"calendars/events.write",
	"calendars/groups.readonly",
	"calendars/groups.write",
	"campaigns.readonly",
	"contacts.readonly",
	"contacts.write",
	"conversations.readonly",
	"conversations.write",
	"conversations/message.readonly",
	"conversations/message.write",
	"forms.readonly",
	"links.readonly",
	"links.write",
	"locations.readonly",
	"locations/customValues.readonly",
	"locations/customValues.write",
	"locations/customFields.readonly",
	"locations/customFields.write",
	"locations/tags.readonly",
	"locations/tags.write",
	"medias.readonly",
	"medias.write",
	"opportunities.readonly",
	"opportunities.write",
	"surveys.readonly",
	"users.readonly",
	"users.write",
	"workflows.readonly",
	"oauth.readonly",
	"oauth.write",
}

var defaultScopes = []string{
	"conversations.readonly",
	"conversations.write",
	"conversations/message.readonly",
	"conversations/message.write",
	"contacts.readonly",
	"contacts.write",
	"locations.readonly",
}

// AllScopes returns the built-in scope catalog.
func AllScopes() []string {
	return append([]string(nil), allScopes...)
}

// DefaultScopes returns the scopes requested when none are specified.
func DefaultScopes() []string {
	return append([]string(nil), defaultScopes...)
}

// Catalog is the scope set reported by this deployment.
type Catalog struct {
	scopes []string
}

// NewCatalog returns the built-in scopes followed by any extra scopes
// configured for the deployment, without duplicates.
func NewCatalog(extra []string) *Catalog {
	seen := make(map[string]struct{}, len(allScopes)+len(extra))
	scopes := make([]string, 0, len(allScopes)+len(extra))

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		scopes = append(scopes, s)
	}

	for _, s := range allScopes {
		add(s)
	}
	for _, s := range extra {
		add(s)
	}

	return &Catalog{scopes: scopes}
}

func (c *Catalog) Scopes() []string {
	return append([]string(nil), c.scopes...)
}

func (c *Catalog) Defaults() []string {
	return DefaultScopes()
}

// AuthorizeURL builds the URL that starts the OAuth flow at baseURL with the
// default scopes.
func (c *Catalog) AuthorizeURL(baseURL, clientID, redirectURL, state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURL)
	q.Set("scope", strings.Join(c.Defaults(), " "))
	if state != "" {
		q.Set("state", state)
	}
	return baseURL + "?" + q.Encode()
}
