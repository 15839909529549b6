package handlers

import (
	"fmt"
	"net/http"
)

// baseURL reconstructs the externally visible origin for self links,
// honoring the proxy's forwarded scheme when present.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func courseSelfLink(base string, id int64) string {
	return fmt.Sprintf("%s/courses/%d", base, id)
}

func avatarURL(base string, userID int64) string {
	return fmt.Sprintf("%s/users/%d/avatar", base, userID)
}
