package urlsafe

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"https", "https://example.com/track/123", nil},
		{"http with port", "http://example.com:8080/a?b=c#d", nil},
		{"upper scheme", "HTTPS://open.spotify.com/track/1", nil},

		{"empty", "", ErrEmptyURL},
		{"whitespace", "   ", ErrEmptyURL},

		{"no scheme", "example.com", ErrInvalidURLFormat},
		{"no host", "http://", ErrInvalidURLFormat},
		{"ftp", "ftp://example.com/file", ErrInvalidURLFormat},
		{"mailto", "mailto:someone@example.com", ErrInvalidURLFormat},
		{"inner space", "https://exa mple.com", ErrInvalidURLFormat},
		{"leading space", " https://example.com", ErrInvalidURLFormat},
		{"relative", "/go/abc", ErrInvalidURLFormat},

		{"javascript", "javascript:alert(1)", ErrUnsafeProtocol},
		{"data", "data:text/html,<script>alert(1)</script>", ErrUnsafeProtocol},
		{"vbscript", "vbscript:msgbox(1)", ErrUnsafeProtocol},
		{"file", "file:///etc/passwd", ErrUnsafeProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, ValidateURL(tt.url))
			assert.Equal(t, tt.wantErr == nil, IsValidURL(tt.url))
		})
	}
}

func TestValidateURL_Length(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", MaxURLLength)
	assert.Equal(t, ErrURLTooLong, ValidateURL(long))

	host := strings.Repeat("a", MaxHostLength-4) + ".com"
	assert.NoError(t, ValidateURL("https://"+host+"/"))
	assert.Equal(t, ErrInvalidURLFormat, ValidateURL("https://a"+host+"/"))
}

func TestValidateAlias(t *testing.T) {
	for _, ok := range []string{"abc", "my-song_2024", strings.Repeat("a", 20)} {
		assert.NoError(t, ValidateAlias(ok), ok)
	}
	for _, bad := range []string{"", "ab", strings.Repeat("a", 21), "has space", "slash/x", "点点点"} {
		assert.ErrorIs(t, ValidateAlias(bad), ErrInvalidAlias, bad)
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "open.spotify.com", Host("https://open.spotify.com/track/1"))
	assert.Equal(t, "example.com", Host("https://WWW.Example.com:443/x"))
	assert.Equal(t, "", Host("::::"))
}

func TestCipher_RoundTrip(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	codec, err := NewCodec(key)
	require.NoError(t, err)

	original := "https://example.com/track/123?utm=1"
	stored, err := codec.Encode(original)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, encryptedPrefix))
	assert.NotContains(t, stored, "example.com")

	again, err := codec.Encode(original)
	require.NoError(t, err)
	assert.NotEqual(t, stored, again, "每次加密应使用不同的 nonce")

	decoded, err := codec.Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	plain, err := codec.Decode("https://legacy.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.example.com", plain)

	_, err = codec.Decode(encryptedPrefix + "AAAA")
	assert.ErrorIs(t, err, ErrCorruptCiphertext)
}

func TestNewCodec(t *testing.T) {
	codec, err := NewCodec("")
	require.NoError(t, err)
	assert.IsType(t, PlainCodec{}, codec)

	_, err = NewCodec(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	_, err = NewCodec("not base64 !!")
	assert.Error(t, err)
}
