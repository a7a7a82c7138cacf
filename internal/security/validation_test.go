package security

import "testing"

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "public https", url: "https://example.com/wallpaper.jpg"},
		{name: "empty", url: "", wantErr: true},
		{name: "plain http", url: "http://example.com/a.png", wantErr: true},
		{name: "no host", url: "https:///a.png", wantErr: true},
		{name: "localhost", url: "https://localhost/a.png", wantErr: true},
		{name: "loopback", url: "https://127.0.0.1/a.png", wantErr: true},
		{name: "private v4", url: "https://10.1.2.3/a.png", wantErr: true},
		{name: "private 172", url: "https://172.20.0.1/a.png", wantErr: true},
		{name: "link local", url: "https://169.254.169.254/latest", wantErr: true},
		{name: "ipv6 loopback", url: "https://[::1]/a.png", wantErr: true},
		{name: "ipv6 ula", url: "https://[fd00::1]/a.png", wantErr: true},
		{name: "public ip", url: "https://93.184.216.34/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
