package serial

import "fmt"

// readLine fills buf from next until delim is seen or buf is full. The
// delimiter is stored and counted. Errors from next are returned as-is
// together with the number of bytes staged so far.
func readLine(buf *LineBuffer, delim byte, next func() (byte, error)) (int, error) {
	buf.Reset()
	for {
		c, err := next()
		if err != nil {
			return buf.Len(), err
		}
		if err := buf.WriteByte(c); err != nil {
			return buf.Len(), fmt.Errorf("%w: %d bytes", ErrLineTooLong, buf.Len())
		}
		if c == delim {
			return buf.Len(), nil
		}
		if buf.Full() {
			return buf.Len(), fmt.Errorf("%w: %d bytes", ErrLineTooLong, buf.Len())
		}
	}
}
