package form

import (
	"encoding/base64"
	"net/http"
)

// PreviewDataURL encodes selected file bytes as a displayable data URL,
// mirroring what the browser's FileReader produces. Previews are local and
// ephemeral: they have no server effect and are discarded on form close.
func PreviewDataURL(content []byte) string {
	contentType := http.DetectContentType(content)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content)
}
