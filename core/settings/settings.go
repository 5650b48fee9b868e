package settings

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type (
	SocialLink struct {
		Platform string `json:"platform" validate:"required"`
		URL      string `json:"url" validate:"required,url"`
	}

	// Settings is a complete snapshot of the site-wide text content.
	Settings struct {
		Values      map[string]string `json:"values"`
		SocialLinks []SocialLink      `json:"social_links"`
		FetchedAt   time.Time         `json:"fetched_at,omitempty"` // zero until the first successful refresh
	}

	// Record is one persisted (key, value) row.
	Record struct {
		Key   string
		Value string
	}

	Repository interface {
		QueryAll(ctx context.Context) ([]Record, error)
		Upsert(ctx context.Context, records ...Record) error
	}

	// SnapshotStore persists the last known snapshot between restarts.
	SnapshotStore interface {
		Load() (Settings, error)
		Save(Settings) error
	}
)

// Get returns the value of key. Unknown keys return "".
func (s Settings) Get(key string) string {
	return s.Values[key]
}

func (s Settings) clone() Settings {
	values := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		values[k] = v
	}
	links := make([]SocialLink, len(s.SocialLinks))
	copy(links, s.SocialLinks)
	return Settings{Values: values, SocialLinks: links, FetchedAt: s.FetchedAt}
}

// Merge overlays remote records on the compiled defaults.
// Absent, empty or blank remote values keep the default. Unknown keys are ignored.
// An unparsable social links value keeps the default list and is reported through the returned error.
func Merge(records []Record) (Settings, error) {
	merged := Defaults()
	var parseErr error
	for _, rec := range records {
		if strings.TrimSpace(rec.Value) == "" {
			continue
		}
		if rec.Key == KeySocialLinks {
			links, err := ParseSocialLinks(rec.Value)
			if err != nil {
				parseErr = err
				continue
			}
			merged.SocialLinks = links
			continue
		}
		if _, ok := merged.Values[rec.Key]; ok {
			merged.Values[rec.Key] = rec.Value
		}
	}
	return merged, parseErr
}

// complete fills any key missing from a (possibly outdated) persisted snapshot with its default.
func complete(s Settings) Settings {
	res := Defaults()
	for k, v := range s.Values {
		if _, ok := res.Values[k]; ok && strings.TrimSpace(v) != "" {
			res.Values[k] = v
		}
	}
	if s.SocialLinks != nil {
		res.SocialLinks = s.SocialLinks
	}
	res.FetchedAt = s.FetchedAt
	return res
}

// ParseSocialLinks decodes the JSON list stored under KeySocialLinks.
func ParseSocialLinks(raw string) ([]SocialLink, error) {
	links := make([]SocialLink, 0)
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, errors.Wrap(err, "parsing social links")
	}
	return links, nil
}

// EncodeSocialLinks is the reverse of ParseSocialLinks.
func EncodeSocialLinks(links []SocialLink) (string, error) {
	if links == nil {
		links = []SocialLink{}
	}
	b, err := json.Marshal(links)
	if err != nil {
		return "", errors.Wrap(err, "encoding social links")
	}
	return string(b), nil
}

// Update holds the changes an administrator can make to the settings table.
type Update struct {
	Values      map[string]string `json:"values"`
	SocialLinks *[]SocialLink     `json:"social_links" validate:"omitempty,dive"`
}

// Records converts u into the rows to upsert. It fails on unknown keys.
func (u Update) Records() ([]Record, error) {
	recs := make([]Record, 0, len(u.Values)+1)
	for k, v := range u.Values {
		if k == KeySocialLinks || !IsKnownKey(k) {
			return nil, ErrUnknownKey{Key: k}
		}
		recs = append(recs, Record{Key: k, Value: strings.TrimSpace(v)})
	}
	if u.SocialLinks != nil {
		raw, err := EncodeSocialLinks(*u.SocialLinks)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{Key: KeySocialLinks, Value: raw})
	}
	return recs, nil
}

type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown setting: " + e.Key
}
