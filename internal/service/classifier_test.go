package service

import (
	"testing"

	"linkwrap-platform/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier([]string{"WWW.MyLabel.com"}, []string{"shady.example"})

	tests := []struct {
		url  string
		want model.LinkKind
	}{
		{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", model.KindNormal},
		{"https://music.apple.com/us/album/x/123", model.KindNormal},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", model.KindNormal},
		{"https://youtu.be/dQw4w9WgXcQ", model.KindNormal},
		{"https://artist.bandcamp.com/album/x", model.KindNormal},
		{"https://mylabel.com/releases", model.KindNormal},
		{"https://shop.mylabel.com/merch", model.KindNormal},

		{"https://onlyfans.com/artist", model.KindSensitive},
		{"https://bit.ly/3xyz", model.KindSensitive},
		{"https://shady.example/page", model.KindSensitive},
		{"https://a.b.shady.example/page", model.KindSensitive},
		{"https://example.com/track/123", model.KindSensitive},
		{"http://93.184.216.34/", model.KindSensitive},
		{"https://[2001:db8::1]/", model.KindSensitive},
		{"https://www.youtube.com/redirect?q=https://evil.example", model.KindSensitive},
		{"https://open.spotify.com/track/1?next=/somewhere", model.KindSensitive},
		{"https://open.spotify.com/track/1?si=abc123", model.KindNormal},
		{"https://notspotify.com/track/1", model.KindSensitive},
		{"ftp://open.spotify.com/x", model.KindSensitive},
		{"::bad::", model.KindSensitive},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.url))
		})
	}
}

func TestCategoryAndTitle(t *testing.T) {
	assert.Equal(t, "spotify", Category("", "open.spotify.com"))
	assert.Equal(t, "apple_music", Category("", "music.apple.com"))
	assert.Equal(t, "youtube", Category("", "m.youtube.com"))
	assert.Equal(t, "merch", Category(" Merch ", "example.com"))
	assert.Equal(t, "other", Category("", "example.com"))

	assert.Equal(t, "Spotify", TitleAlias("spotify", "open.spotify.com"))
	assert.Equal(t, "example.com", TitleAlias("other", "example.com"))
	assert.Equal(t, "External link", TitleAlias("other", ""))
}
