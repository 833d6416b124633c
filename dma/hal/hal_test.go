package hal

import (
	"errors"
	"testing"

	"github.com/ardnew/softdma/pkg"
)

// =============================================================================
// Capability Tests
// =============================================================================

func TestCapability_Has(t *testing.T) {
	caps := CapSlave | CapGeneralPurpose

	if !caps.Has(CapSlave) {
		t.Error("should have CapSlave")
	}
	if !caps.Has(CapSlave | CapGeneralPurpose) {
		t.Error("should have CapSlave|CapGeneralPurpose")
	}
	if caps.Has(CapMemcpy) {
		t.Error("should not have CapMemcpy")
	}
	if !caps.Has(0) {
		t.Error("every set has the empty set")
	}
}

func TestCapability_String(t *testing.T) {
	tests := []struct {
		caps Capability
		want string
	}{
		{0, "none"},
		{CapMemcpy, "memcpy"},
		{CapSlave | CapGeneralPurpose, "slave|general"},
		{CapMemcpy | CapSlave | CapGeneralPurpose, "memcpy|slave|general"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.caps.String(); got != tt.want {
				t.Errorf("Capability(%d).String() = %q, want %q", tt.caps, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Enum String Tests
// =============================================================================

func TestPriority_String(t *testing.T) {
	tests := []struct {
		p    Priority
		want string
	}{
		{PriorityLow, "low"},
		{PriorityMedium, "medium"},
		{PriorityHigh, "high"},
		{Priority(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestDirection_String(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirMemToMem, "mem-to-mem"},
		{DirMemToDev, "mem-to-dev"},
		{DirDevToMem, "dev-to-mem"},
		{Direction(7), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestBusWidth(t *testing.T) {
	tests := []struct {
		w     BusWidth
		valid bool
		bits  int
	}{
		{BusWidth1Byte, true, 8},
		{BusWidth2Bytes, true, 16},
		{BusWidth4Bytes, true, 32},
		{BusWidth8Bytes, true, 64},
		{BusWidth(3), false, 24},
		{BusWidth(0), false, 0},
	}

	for _, tt := range tests {
		if got := tt.w.Valid(); got != tt.valid {
			t.Errorf("BusWidth(%d).Valid() = %v, want %v", tt.w, got, tt.valid)
		}
		if got := tt.w.Bits(); got != tt.bits {
			t.Errorf("BusWidth(%d).Bits() = %d, want %d", tt.w, got, tt.bits)
		}
	}
}

// =============================================================================
// Request Tests
// =============================================================================

func TestRequest_Matches(t *testing.T) {
	general := ChannelInfo{Name: "ch1", Index: 1, Caps: CapSlave | CapGeneralPurpose, Priority: PriorityHigh}
	reserved := ChannelInfo{Name: "ch0", Index: 0, Caps: CapSlave, Priority: PriorityHigh}
	slow := ChannelInfo{Name: "ch2", Index: 2, Caps: CapSlave | CapGeneralPurpose, Priority: PriorityLow}

	tests := []struct {
		name string
		req  Request
		info ChannelInfo
		want bool
	}{
		{"caps match", Request{Caps: CapSlave}, general, true},
		{"caps missing", Request{Caps: CapMemcpy}, general, false},
		{"priority too low", Request{Caps: CapSlave, Priority: PriorityHigh}, slow, false},
		{"priority satisfied", Request{Caps: CapSlave, Priority: PriorityLow}, general, true},
		{"filter rejects", Request{Caps: CapSlave, Filter: GeneralPurpose}, reserved, false},
		{"filter accepts", Request{Caps: CapSlave, Filter: GeneralPurpose}, general, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Matches(tt.info); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.info, got, tt.want)
			}
		})
	}
}

// =============================================================================
// SlaveConfig Tests
// =============================================================================

func TestSlaveConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SlaveConfig
		wantErr error
	}{
		{"valid", SlaveConfig{DirMemToMem, BusWidth2Bytes, BusWidth2Bytes}, nil},
		{"device direction", SlaveConfig{DirMemToDev, BusWidth2Bytes, BusWidth2Bytes}, pkg.ErrNotSupported},
		{"bad source width", SlaveConfig{DirMemToMem, BusWidth(3), BusWidth2Bytes}, pkg.ErrInvalidParameter},
		{"bad destination width", SlaveConfig{DirMemToMem, BusWidth2Bytes, 0}, pkg.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Descriptor / Tx Tests
// =============================================================================

func TestTx_Release(t *testing.T) {
	src := make([]byte, 64)
	dst := make([]byte, 64)
	called := false
	tx := &Tx{
		Src:      NewDescriptor(src),
		Dst:      NewDescriptor(dst),
		Callback: func(Cookie, pkg.TransferStatus) { called = true },
	}

	if tx.Len() != 64 {
		t.Errorf("Len() = %d, want 64", tx.Len())
	}
	if tx.Dst.Len() != 64 {
		t.Errorf("Dst.Len() = %d, want 64", tx.Dst.Len())
	}

	tx.Release()
	if tx.Src.Bytes() != nil || tx.Dst.Bytes() != nil {
		t.Error("Release should drop descriptor bindings")
	}
	if tx.Callback != nil {
		t.Error("Release should drop the callback")
	}
	if called {
		t.Error("Release must not invoke the callback")
	}
}
