package course

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const mb = 1024 * 1024

// Upload is a file picked for embedding. Size is known before the file is opened.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileUpload describes a file on disk as an Upload.
func FileUpload(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, errors.Wrap(err, "stat upload")
	}
	if info.IsDir() {
		return Upload{}, errors.Errorf("%s is a directory", path)
	}
	return Upload{
		Name: info.Name(),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// BytesUpload wraps in-memory content as an Upload.
func BytesUpload(name string, content []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil },
	}
}

// TooLargeMessage names the embedding limit and points to the URL alternative.
func TooLargeMessage(size, limit int64) string {
	return fmt.Sprintf(
		"File is too large (%.1f MB). The maximum for embedded videos is %.1f MB: paste a video URL instead.",
		float64(size)/mb, float64(limit)/mb,
	)
}

// DataURL reads r fully and encodes it as `data:<mime>;base64,<payload>`.
func DataURL(r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading upload")
	}
	mime := strings.SplitN(mimetype.Detect(content).String(), ";", 2)[0]

	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(content)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	_, _ = enc.Write(content)
	_ = enc.Close()
	return buf.String(), nil
}

func readDataURL(up Upload) (string, error) {
	if up.Open == nil {
		return "", errors.New("upload cannot be opened")
	}
	rc, err := up.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer rc.Close()
	return DataURL(rc)
}
