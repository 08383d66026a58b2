//go:build linux
// +build linux

package joystick

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

const (
	jsIOCGNAME uint = 0x80ff6a13

	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80
)

// jsEvent is struct js_event of linux/joystick.h.
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type linuxDevice struct {
	file *os.File
	name string
}

// Open opens /dev/input/jsN.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &linuxDevice{file: f, name: fmt.Sprintf("js%d", index)}
	var buf [256]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(jsIOCGNAME), uintptr(unsafe.Pointer(&buf)))
	if errno == 0 {
		if pos := bytes.IndexByte(buf[:], 0); pos > 0 {
			d.name = string(buf[:pos])
		}
	}
	return d, nil
}

func (d *linuxDevice) Close() error {
	return d.file.Close()
}

func (d *linuxDevice) Name() string {
	return d.name
}

func (d *linuxDevice) ReadEvent() (Event, error) {
	for {
		var ev jsEvent
		if err := binary.Read(d.file, binary.LittleEndian, &ev); err != nil {
			return Event{}, err
		}
		out := Event{Index: int(ev.Number), Value: int(ev.Value), Init: ev.Type&jsEventInit != 0}
		switch ev.Type &^ jsEventInit {
		case jsEventAxis:
			out.Kind = Axis
		case jsEventButton:
			out.Kind = Button
		default:
			continue
		}
		return out, nil
	}
}
