package valkey

import "testing"

func TestCache_Key(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"biogrid", "reports:id:1", "biogrid:reports:id:1"},
		{"", "reports:id:1", "reports:id:1"},
	}
	for _, tt := range tests {
		c := &Cache{prefix: tt.prefix}
		if got := c.key(tt.key); got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}
