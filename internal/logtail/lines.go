package logtail

import "bytes"

// SplitComplete splits buf into '\n'-terminated lines and reports how many bytes
// those lines consumed. Anything after the last separator is an unfinished line
// and is left for the caller to re-read later.
func SplitComplete(buf []byte) ([]string, int) {
	last := bytes.LastIndexByte(buf, '\n')
	if last < 0 {
		return nil, 0
	}
	consumed := last + 1
	body := buf[:last]
	lines := make([]string, 0, bytes.Count(body, []byte{'\n'})+1)
	for {
		idx := bytes.IndexByte(body, '\n')
		if idx < 0 {
			lines = append(lines, trimCR(body))
			break
		}
		lines = append(lines, trimCR(body[:idx]))
		body = body[idx+1:]
	}
	return lines, consumed
}

func trimCR(b []byte) string {
	return string(bytes.TrimSuffix(b, []byte{'\r'}))
}
