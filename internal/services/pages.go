package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// IndexRequestLine is the only request line served with the index page.
	IndexRequestLine = "GET / HTTP/1.1"

	IndexFile    = "index.html"
	NotFoundFile = "404.html"

	// MaxLineLength bounds the part of a request line kept in memory. Longer
	// lines never match IndexRequestLine.
	MaxLineLength = 8 << 10

	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"
)

// Pages answers raw connections with one of two static files.
// Files are read from disk on every request.
type Pages struct {
	folder string
}

func NewPagesService(staticsFolder string) *Pages {
	return &Pages{folder: staticsFolder}
}

// Serve reads the request head from rw and writes back the matching page.
func (p *Pages) Serve(rw io.ReadWriter) error {
	requestLine, err := ReadRequestLine(rw)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	response, err := p.Respond(requestLine)
	if err != nil {
		return err
	}

	if _, err := rw.Write(response); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// Respond builds the full response for requestLine.
func (p *Pages) Respond(requestLine string) ([]byte, error) {
	if requestLine == IndexRequestLine {
		return p.Index()
	}
	return p.NotFound()
}

func (p *Pages) Index() ([]byte, error) {
	return p.render(statusOK, IndexFile)
}

func (p *Pages) NotFound() ([]byte, error) {
	return p.render(statusNotFound, NotFoundFile)
}

func (p *Pages) render(status, file string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Join(p.folder, file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return fmt.Appendf(nil, "%s\r\nContent-Length: %d\r\n\r\n%s", status, len(contents), contents), nil
}

// ReadRequestLine consumes lines up to the first empty one (or EOF) and
// returns the first of them. An empty request yields "". Lines of any length
// are consumed; only the first MaxLineLength bytes of each are kept.
func ReadRequestLine(r io.Reader) (string, error) {
	br := bufio.NewReader(r)

	var first string
	for i := 0; ; i++ {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			return first, nil
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			return first, nil
		}
		if i == 0 {
			first = line
		}
	}
}

// readLine returns the next line without its terminator, truncated to
// MaxLineLength. The rest of an over-long line is read and dropped.
func readLine(br *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return string(line), err
		}
		if room := MaxLineLength - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if !isPrefix {
			return string(line), nil
		}
	}
}
