// Package procenv hardens the process environment cmd/cindex and
// cmd/cquery run in before touching any file descriptor the library code
// assumes is open.
package procenv

import "os"

// HardenStdio ensures file descriptors 0, 1, and 2 are open, redirecting
// any that were closed at process start to os.DevNull. A setuid launcher
// or a minimal container init can start a process with a closed stdin/
// stdout/stderr; the next file the program opens would silently receive
// that low fd number instead, corrupting unrelated output.
func HardenStdio() error {
	for fd, f := range map[uintptr]**os.File{0: &os.Stdin, 1: &os.Stdout, 2: &os.Stderr} {
		if isOpen(fd) {
			continue
		}
		devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
		if err != nil {
			return err
		}
		*f = devnull
	}
	return nil
}

func isOpen(fd uintptr) bool {
	f := os.NewFile(fd, "")
	if f == nil {
		return false
	}
	_, err := f.Stat()
	return err == nil
}
