package main

import "testing"

// TestHeadlessBackend verifies only the soft backend runs headless and an
// explicit other choice is refused instead of being swapped.
func TestHeadlessBackend(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		want    string
		wantErr bool
	}{
		{name: "soft", opts: options{backend: "soft", backendSet: true}, want: "soft"},
		{name: "default", opts: options{backend: "gl"}, want: "soft"},
		{name: "explicit gl", opts: options{backend: "gl", backendSet: true}, wantErr: true},
		{name: "explicit wgpu", opts: options{backend: "wgpu", backendSet: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := headlessBackend(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("headlessBackend error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("headlessBackend = %q, want %q", got, tt.want)
			}
		})
	}
}
