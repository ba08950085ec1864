package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/avatar.png", want: "user/avatar.png"},
		{name: "simple prefix", prefix: "root", key: "user/avatar.png", want: "root/user/avatar.png"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/avatar.png", want: "root/user/avatar.png"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/avatar.png", want: "root/user/avatar.png"},
		{name: "nested prefix", prefix: "root/sub", key: "user/avatar.png", want: "root/sub/user/avatar.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":          "",
		"  ":        "",
		"/uploads/": "uploads",
		"uploads":   "uploads",
		" a/b/ ":    "a/b",
	}
	for in, want := range cases {
		if got := normalizePrefix(in); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
