package language

import "unicode/utf8"

// binarySniffSize is how many leading bytes are inspected for NUL bytes.
const binarySniffSize = 8000

// IsBinaryContent reports whether data looks like binary content: a NUL byte
// within the first binarySniffSize bytes.
func IsBinaryContent(data []byte) bool {
	checkSize := binarySniffSize
	if len(data) < checkSize {
		checkSize = len(data)
	}

	for i := 0; i < checkSize; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}

// IsText reports whether data can be served as text without replacing bytes:
// no NUL bytes and valid UTF-8 throughout.
func IsText(data []byte) bool {
	return !IsBinaryContent(data) && utf8.Valid(data)
}
