package padding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-test/deep"
)

func TestPad(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{
			name: "empty input gets a full block of padding",
			data: []byte{},
			want: []byte{8, 8, 8, 8, 8, 8, 8, 8},
		},
		{
			name: "partial block",
			data: []byte("hello"),
			want: []byte{'h', 'e', 'l', 'l', 'o', 3, 3, 3},
		},
		{
			name: "aligned input still gets a full block",
			data: []byte("8 bytes!"),
			want: []byte{'8', ' ', 'b', 'y', 't', 'e', 's', '!', 8, 8, 8, 8, 8, 8, 8, 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pad(tt.data, 8)
			if diff := deep.Equal(got, tt.want); len(diff) > 0 {
				t.Error(diff)
			}

			back, err := Unpad(got)
			if err != nil {
				t.Fatalf("Unpad() unexpected error: %v", err)
			}
			if !bytes.Equal(back, tt.data) {
				t.Errorf("Unpad(Pad()) = %v, want %v", back, tt.data)
			}
		})
	}
}

func TestUnpad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: []byte{}},
		{name: "zero pad byte", data: []byte{1, 2, 3, 0}},
		{name: "pad count longer than data", data: []byte{9}},
		{name: "inconsistent pad bytes", data: []byte{1, 2, 3, 4, 5, 2, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unpad(tt.data); !errors.Is(err, ErrMalformed) {
				t.Errorf("Unpad() error = %v, want ErrMalformed", err)
			}
		})
	}
}
