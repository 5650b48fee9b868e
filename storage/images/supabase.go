package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
)

// supabaseStore uploads the images to a public Supabase storage bucket.
type supabaseStore struct {
	projectURL string
	key        string
	bucket     string
	maxDim     int
	client     *http.Client
}

var _ core.ImageStore = (*supabaseStore)(nil)

func NewSupabaseStore(projectURL, key, bucket string, maxDim int, client ...*http.Client) core.ImageStore {
	c := &http.Client{Timeout: 30 * time.Second}
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	}
	return &supabaseStore{
		projectURL: strings.TrimSuffix(projectURL, "/"),
		key:        key,
		bucket:     bucket,
		maxDim:     maxDim,
		client:     c,
	}
}

func (s *supabaseStore) objectURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, name)
}

func (s *supabaseStore) publicURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, s.bucket, name)
}

func (s *supabaseStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if s.projectURL == "" || s.key == "" {
		return "", errors.New("supabase storage is not configured")
	}
	img, err := process(r, s.maxDim)
	if err != nil {
		return "", err
	}
	name := uniqueName(folder, filename, img.ext)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(name), img.data)
	if err != nil {
		return "", errors.Wrap(err, "building upload request")
	}
	req.Header.Set("Content-Type", img.contentType)
	if err = s.do(req); err != nil {
		return "", errors.Wrap(err, "uploading image")
	}
	return s.publicURL(name), nil
}

func (s *supabaseStore) Delete(ctx context.Context, rawURL string) error {
	bucket, name, err := extractPath(rawURL)
	if err != nil || bucket != s.bucket {
		return nil // not ours
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(name), nil)
	if err != nil {
		return errors.Wrap(err, "building delete request")
	}
	return errors.Wrap(s.do(req), "deleting image")
}

func (s *supabaseStore) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+s.key)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

// extractPath splits a public object URL into its bucket and object name.
func extractPath(rawURL string) (bucket, name string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	parts := strings.SplitN(u.Path, "/object/public/", 2)
	if len(parts) < 2 {
		return "", "", errors.Errorf("not a public object URL: %s", rawURL)
	}
	segs := strings.SplitN(parts[1], "/", 2)
	if len(segs) < 2 || segs[1] == "" {
		return "", "", errors.Errorf("not a public object URL: %s", rawURL)
	}
	return segs[0], segs[1], nil
}
