// Package serial is a small Linux serial port library built for line
// oriented request/response traffic.
//
// # Basic Usage
//
// Open a port with the default configuration (115200 8N1, 2.5s line timeout):
//
//	port, err := serial.Open("/dev/ttyACM0", serial.WithBaudRate(9600))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if _, err := port.WriteString("PING\n"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Reading Lines
//
// ReadLine fills a bounded LineBuffer until the delimiter arrives. The count
// includes the delimiter. Failures map onto an Outcome code:
//
//	buf := serial.NewLineBuffer(serial.DefaultLineCapacity)
//	n, err := port.ReadLine(buf, '\n')
//	switch o := serial.ClassifyRead(n, err); {
//	case o.Received():
//	    fmt.Printf("% X\n", buf.Bytes()[:n])
//	default:
//	    fmt.Println(o.Diagnostic()) // e.g. "Error code: 0 timeout is reached"
//	}
//
// Available reports how many bytes are queued without blocking, which lets
// callers poll for a reply before reading.
//
// # Configuration Options
//
//	port, err := serial.Open("/dev/ttyUSB0",
//	    serial.WithBaudRate(115200),
//	    serial.WithParity(serial.ParityEven),
//	    serial.WithStopBits(2),
//	    serial.WithReadTimeout(500*time.Millisecond),
//	    serial.WithSyncWrite(),
//	)
//
// # Port Discovery
//
// List available serial ports with their USB metadata:
//
//	infos, err := serial.ListPortInfo()
//	for _, info := range infos {
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n",
//	        info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Errors
//
// Open reports ErrDeviceNotFound, ErrPermissionDenied and ErrDeviceInUse.
// Line reads report ErrReadTimeout, ErrTimeoutConfig, ErrReadFailed and
// ErrLineTooLong. A read woken by Interrupt or Close reports ErrReadFailed
// wrapped together with ErrReadInterrupted. Compare with errors.Is.
package serial
