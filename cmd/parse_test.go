package cmd

import "testing"

func TestParseOutputDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"json-out", "parsed_resume.json"},
		{"pdf-out", "output.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := parseCmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("flag %s is not registered", tt.flag)
			}
			if flag.DefValue != tt.want {
				t.Errorf("flag %s defaults to %q, want %q", tt.flag, flag.DefValue, tt.want)
			}
		})
	}
}
