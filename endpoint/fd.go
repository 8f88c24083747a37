//go:build unix

package endpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ardnew/splitwork/pkg"
)

// fdPrefix marks an inherited descriptor in an endpoint spec ("fd:3").
const fdPrefix = "fd:"

// FD is a raw, caller-owned file descriptor.
type FD int

// Descriptor returns the descriptor number.
func (fd FD) Descriptor() int {
	return int(fd)
}

// Read reads up to len(p) bytes with a single read(2) call.
func (fd FD) Read(p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return 0, os.NewSyscallError("read", err)
	}
	return n, nil
}

// Write writes p with a single write(2) call and may transfer fewer bytes.
func (fd FD) Write(p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if err != nil {
		return 0, os.NewSyscallError("write", err)
	}
	return n, nil
}

// Valid reports whether fd names an open file description.
func (fd FD) Valid() bool {
	if fd < 0 {
		return false
	}
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}

// File is a descriptor endpoint backed by an [os.File]. It keeps the file
// reachable so the descriptor is not closed by a finalizer while in use.
type File struct {
	f  *os.File
	fd FD
}

// NewFile returns an endpoint for f. The file is switched to blocking mode.
func NewFile(f *os.File) *File {
	return &File{f: f, fd: FD(f.Fd())}
}

// Descriptor returns the descriptor number.
func (f *File) Descriptor() int {
	return int(f.fd)
}

// Name returns the name of the underlying file.
func (f *File) Name() string {
	return f.f.Name()
}

// Read reads up to len(p) bytes with a single read(2) call.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.fd.Read(p)
	runtime.KeepAlive(f.f)
	return n, err
}

// Write writes p with a single write(2) call and may transfer fewer bytes.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.fd.Write(p)
	runtime.KeepAlive(f.f)
	return n, err
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// ParseDescriptor validates a single descriptor id, given either as a bare
// number ("3") or with the fd prefix ("fd:3").
func ParseDescriptor(s string) (FD, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), fdPrefix))
	if err != nil || n < 0 {
		return -1, fmt.Errorf("descriptor %q: %w", s, pkg.ErrInvalidParameter)
	}
	fd := FD(n)
	if !fd.Valid() {
		return -1, fmt.Errorf("descriptor %d: %w", n, pkg.ErrBadDescriptor)
	}
	return fd, nil
}

// ParseDescriptors validates a list of descriptor ids into a typed slice of
// the same length. An empty list returns [pkg.ErrNoEndpoints].
func ParseDescriptors(args []string) ([]FD, error) {
	if len(args) == 0 {
		return nil, pkg.ErrNoEndpoints
	}
	fds := make([]FD, len(args))
	for i, arg := range args {
		fd, err := ParseDescriptor(arg)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		fds[i] = fd
	}
	return fds, nil
}

// IsDescriptorSpec reports whether spec names an inherited descriptor.
func IsDescriptorSpec(spec string) bool {
	return strings.HasPrefix(spec, fdPrefix)
}

// OpenSource resolves spec to a readable endpoint. spec is "fd:N" for an
// inherited descriptor, "-" for standard input, or a path.
func OpenSource(spec string) (*File, error) {
	switch {
	case spec == "-":
		return NewFile(os.Stdin), nil
	case IsDescriptorSpec(spec):
		return inherit(spec)
	}
	f, err := os.Open(spec)
	if err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentEndpoint, "opened source", "path", spec, "fd", f.Fd())
	return NewFile(f), nil
}

// OpenSink resolves spec to a writable endpoint. spec is "fd:N" for an
// inherited descriptor, "-" for standard output, or a path. A path that
// does not exist is created as a FIFO when fifo is set, otherwise as a
// regular file; an existing regular file is truncated.
func OpenSink(spec string, fifo bool) (*File, error) {
	switch {
	case spec == "-":
		return NewFile(os.Stdout), nil
	case IsDescriptorSpec(spec):
		return inherit(spec)
	}
	flag := os.O_WRONLY | os.O_CREATE
	if fifo {
		if err := MakeFIFO(spec); err != nil {
			return nil, err
		}
	}
	info, err := os.Stat(spec)
	if err == nil && info.Mode().IsRegular() {
		flag |= os.O_TRUNC
	}
	f, err := os.OpenFile(spec, flag, 0o644)
	if err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentEndpoint, "opened sink", "path", spec, "fd", f.Fd())
	return NewFile(f), nil
}

// MakeFIFO creates a named pipe at path. An existing FIFO is reused.
func MakeFIFO(path string) error {
	err := unix.Mkfifo(path, 0o666)
	if err == nil {
		pkg.LogDebug(pkg.ComponentEndpoint, "created fifo", "path", path)
		return nil
	}
	if errors.Is(err, unix.EEXIST) {
		info, serr := os.Stat(path)
		if serr == nil && info.Mode()&fs.ModeNamedPipe != 0 {
			return nil
		}
	}
	return &fs.PathError{Op: "mkfifo", Path: path, Err: err}
}

// inherit wraps an already open descriptor named by an "fd:N" spec.
func inherit(spec string) (*File, error) {
	fd, err := ParseDescriptor(spec)
	if err != nil {
		return nil, err
	}
	return NewFile(os.NewFile(uintptr(fd), spec)), nil
}
