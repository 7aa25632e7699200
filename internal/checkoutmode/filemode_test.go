// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package checkoutmode

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestNewFileMode(t *testing.T) {
	for _, c := range []struct {
		mode     os.FileMode
		expected FileMode
	}{
		{os.FileMode(0755) | os.ModeDir, Dir},
		{os.FileMode(0700) | os.ModeDir, Dir},
		{os.FileMode(0500) | os.ModeDir, Dir},
		// dirs with a sticky bit are just dirs
		{os.FileMode(0755) | os.ModeDir | os.ModeSticky, Dir},
		{os.FileMode(0644), Regular},
		// append only files are regular
		{os.FileMode(0644) | os.ModeAppend, Regular},
		// exclusive only files are regular
		{os.FileMode(0644) | os.ModeExclusive, Regular},
		// depending on owner perms, setguid can be regular
		{os.FileMode(0644) | os.ModeSetgid, Regular},
		{os.FileMode(0660), Regular},
		{os.FileMode(0640), Regular},
		{os.FileMode(0600), Regular},
		{os.FileMode(0400), Regular},
		{os.FileMode(0000), Regular},
		{os.FileMode(0755), Executable},
		// setuid and setguid are executables
		{os.FileMode(0755) | os.ModeSetuid, Executable},
		{os.FileMode(0755) | os.ModeSetgid, Executable},
		{os.FileMode(0700), Executable},
		{os.FileMode(0500), Executable},
		{os.FileMode(0744), Executable},
		{os.FileMode(0540), Executable},
		{os.FileMode(0550), Executable},
		{os.FileMode(0777) | os.ModeSymlink, Symlink},
	} {
		m, err := NewFileMode(c.mode)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m != c.expected {
			t.Fatalf("%s: expected filemode %s, got %s", c.mode, c.expected, m)
		}
	}
}

func TestNewFileModeRejectsNonTreeEntries(t *testing.T) {
	for _, c := range []struct {
		mode        os.FileMode
		expectedErr string
	}{
		// temporary files are rejected
		{os.FileMode(0644) | os.ModeTemporary, "invalid file mode"},
		// device files are rejected
		{os.FileMode(0644) | os.ModeCharDevice, "invalid file mode"},
		// named pipes are rejected
		{os.FileMode(0644) | os.ModeNamedPipe, "invalid file mode"},
		// sockets are rejected
		{os.FileMode(0644) | os.ModeSocket, "invalid file mode"},
	} {
		m, err := NewFileMode(c.mode)
		if err == nil {
			t.Fatalf("%s: expected an error, got nil", c.mode)
		}
		if !strings.Contains(err.Error(), c.expectedErr) {
			t.Fatalf("%s: unexpected error: %v", c.mode, err)
		}
		if m != Empty {
			t.Fatalf("%s: expected the zero file mode alongside the error, got: %s", c.mode, m)
		}
	}
}

func TestFileModeToOSFileMode(t *testing.T) {
	for _, c := range []struct {
		mode     FileMode
		expected os.FileMode
	}{
		{Regular, os.FileMode(0644)},
		{Dir, os.ModePerm | os.ModeDir},
		{Symlink, os.ModePerm | os.ModeSymlink},
		{Executable, os.FileMode(0755)},
	} {
		got, err := c.mode.ToOSFileMode()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.mode, err)
		}
		if got != c.expected {
			t.Fatalf("%s: expected OS file mode %s, got %s", c.mode, c.expected, got)
		}
	}
}

func TestFileModeToOSFileModeRejectsMalformedModes(t *testing.T) {
	for _, mode := range []FileMode{
		Empty,
		FileMode(01),
		FileMode(010),
		FileMode(0100),
		FileMode(01000),
		FileMode(010000),
		FileMode(0100000),
	} {
		m, err := mode.ToOSFileMode()
		if err == nil {
			t.Fatalf("%s: expected an error, got nil", mode)
		}
		if want := fmt.Sprintf("malformed file mode: %s", mode); err.Error() != want {
			t.Fatalf("expected error %q, got %q", want, err.Error())
		}
		if m != os.FileMode(0) {
			t.Fatalf("%s: expected file mode 0 alongside the error, got: %s", mode, m)
		}
	}
}
