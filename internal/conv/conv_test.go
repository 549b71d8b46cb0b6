package conv

import "testing"

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		want    uint32
		wantPan bool
	}{
		{"zero", 0, 0, false},
		{"positive", 42, 42, false},
		{"negative panics", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPan {
					t.Errorf("IntToUint32(%d) panic = %v, wantPanic %v", tt.n, r, tt.wantPan)
				}
			}()
			got := IntToUint32(tt.n)
			if !tt.wantPan && got != tt.want {
				t.Errorf("IntToUint32(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestIntToUint16(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		want    uint16
		wantPan bool
	}{
		{"zero", 0, 0, false},
		{"max", 65535, 65535, false},
		{"overflow panics", 65536, 0, true},
		{"negative panics", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPan {
					t.Errorf("IntToUint16(%d) panic = %v, wantPanic %v", tt.n, r, tt.wantPan)
				}
			}()
			got := IntToUint16(tt.n)
			if !tt.wantPan && got != tt.want {
				t.Errorf("IntToUint16(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
