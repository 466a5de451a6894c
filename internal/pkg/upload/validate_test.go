package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

var pngHead = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateImageBySniff(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
		want     string
		wantErr  bool
	}{
		{name: "png", filename: "me.PNG", head: pngHead, want: "image/png"},
		{name: "jpeg", filename: "me.jpg", head: []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), want: "image/jpeg"},
		{name: "avif by extension", filename: "me.avif", head: []byte{0, 0, 0, 0x1c, 'f', 't', 'y', 'p', 'a', 'v', 'i', 'f'}, want: "image/avif"},
		{name: "html disguised as png", filename: "me.png", head: []byte("<html><script>alert(1)</script>"), wantErr: true},
		{name: "svg", filename: "me.png", head: []byte(`<?xml version="1.0"?><svg></svg>`), wantErr: true},
		{name: "text", filename: "me.gif", head: []byte("plain words"), wantErr: true},
		{name: "bad extension", filename: "me.exe", head: pngHead, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateImageBySniff(tt.filename, tt.head)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
