package translate

import (
	"context"
	"os/exec"
	"testing"

	"github.com/abdul-hamid-achik/restmd/packages/core/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurl_Command(t *testing.T) {
	tests := []struct {
		name           string
		opts           []CurlOption
		block          string
		vars           env.Bindings
		includeHeaders bool
		want           string
	}{
		{
			name:           "simple get with headers",
			block:          "GET https://api.example.com/users",
			includeHeaders: true,
			want:           "curl -sS -i -X GET 'https://api.example.com/users'",
		},
		{
			name:  "without headers",
			block: "https://api.example.com/users",
			want:  "curl -sS -X GET 'https://api.example.com/users'",
		},
		{
			name:  "post with header and body",
			block: "POST https://api.example.com/users\nContent-Type: application/json\n\n{\"name\":\"O'Brien\"}",
			want: "curl -sS -X POST -H 'Content-Type: application/json' " +
				`--data-raw '{"name":"O'\''Brien"}' 'https://api.example.com/users'`,
		},
		{
			name:  "variables substituted",
			block: "@host = api.example.com\nGET https://{{host}}/me\nAuthorization: Bearer {{token}}",
			vars:  env.Bindings{{Name: "host", Value: "api.example.com"}, {Name: "token", Value: "t1"}},
			want:  "curl -sS -X GET -H 'Authorization: Bearer t1' 'https://api.example.com/me'",
		},
		{
			name:           "head uses -I",
			block:          "HEAD https://x",
			includeHeaders: true,
			want:           "curl -sS -I 'https://x'",
		},
		{
			name: "options",
			opts: []CurlOption{
				WithBinary("/usr/local/bin/curl"),
				WithFollowRedirects(true),
				WithInsecure(true),
				WithExtraArgs("--compressed", "--max-time 5"),
			},
			block:          "GET https://x",
			includeHeaders: true,
			want:           "/usr/local/bin/curl -sS -i -X GET -L -k --compressed --max-time 5 'https://x'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCurl(tt.opts...).Command(tt.block, tt.vars, tt.includeHeaders)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurl_Translate(t *testing.T) {
	c := NewCurl()

	t.Run("one command per selection in order", func(t *testing.T) {
		got, err := c.Translate(context.Background(), []string{"GET https://a", "DELETE https://b"}, nil, false)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"curl -sS -X GET 'https://a'",
			"curl -sS -X DELETE 'https://b'",
		}, got)
	})

	t.Run("error names the request", func(t *testing.T) {
		_, err := c.Translate(context.Background(), []string{"GET https://a", "nope"}, nil, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request 2")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.Translate(ctx, []string{"GET https://a"}, nil, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestShellQuote_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"it's",
		`"double" and 'single'`,
		"$HOME `id` \\n",
		"line1\nline2",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out, err := exec.Command("sh", "-c", "printf '%s' "+shellQuote(in)).Output()
			require.NoError(t, err)
			assert.Equal(t, in, string(out))
		})
	}
}
