// Package prompt declares the reusable confirmation descriptors that guard
// destructive or state-changing admin operations. Handlers answer the first
// unconfirmed request with a descriptor; the client repeats the call with
// the confirmation header set.
package prompt

import "fmt"

// Variant selects the visual weight a client should give the prompt.
type Variant string

const (
	Danger  Variant = "danger"
	Warning Variant = "warning"
	Success Variant = "success"
)

// Descriptor describes one confirmation dialog declaratively.
type Descriptor struct {
	Variant      Variant `json:"variant"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	ConfirmLabel string  `json:"confirm_label"`
	CancelLabel  string  `json:"cancel_label"`
}

// DeleteSession confirms permanent removal of a session and its rows.
func DeleteSession(title string) Descriptor {
	return Descriptor{
		Variant:      Danger,
		Title:        "Hapus Sesi",
		Message:      fmt.Sprintf("Sesi %q dan seluruh data absensinya akan dihapus permanen.", title),
		ConfirmLabel: "Hapus",
		CancelLabel:  "Batal",
	}
}

// CloseSession confirms closing an active session for check-ins.
func CloseSession(title string) Descriptor {
	return Descriptor{
		Variant:      Warning,
		Title:        "Tutup Sesi",
		Message:      fmt.Sprintf("Peserta tidak lagi dapat melakukan absensi pada sesi %q.", title),
		ConfirmLabel: "Tutup Sesi",
		CancelLabel:  "Batal",
	}
}

// OpenSession confirms reopening a closed session.
func OpenSession(title string) Descriptor {
	return Descriptor{
		Variant:      Success,
		Title:        "Buka Sesi",
		Message:      fmt.Sprintf("Sesi %q akan menerima absensi kembali.", title),
		ConfirmLabel: "Buka Sesi",
		CancelLabel:  "Batal",
	}
}
