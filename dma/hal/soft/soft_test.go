package soft

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/ardnew/softdma/dma/hal"
	"github.com/ardnew/softdma/pkg"
)

// =============================================================================
// Helpers
// =============================================================================

var m2m16 = hal.SlaveConfig{
	Direction: hal.DirMemToMem,
	SrcWidth:  hal.BusWidth2Bytes,
	DstWidth:  hal.BusWidth2Bytes,
}

type completionEvent struct {
	cookie hal.Cookie
	status pkg.TransferStatus
}

func requestConfigured(t *testing.T, c *Controller) hal.Channel {
	t.Helper()
	ch, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave})
	if err != nil {
		t.Fatalf("RequestChannel() error = %v", err)
	}
	t.Cleanup(func() { _ = ch.Release() })
	if err := ch.Configure(m2m16); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return ch
}

func pattern(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	return buf
}

// =============================================================================
// Controller Tests
// =============================================================================

func TestNewController_Default(t *testing.T) {
	c := NewController()
	infos := c.Channels()

	if len(infos) != DefaultChannelCount {
		t.Fatalf("len(Channels()) = %d, want %d", len(infos), DefaultChannelCount)
	}
	if infos[0].Caps.Has(hal.CapGeneralPurpose) {
		t.Error("channel 0 should be reserved")
	}
	for _, info := range infos[1:] {
		if !info.Caps.Has(hal.CapGeneralPurpose | hal.CapSlave) {
			t.Errorf("%s caps = %s, want general-purpose slave", info.Name, info.Caps)
		}
	}
}

func TestRequestChannel_GeneralPurposeFilter(t *testing.T) {
	c := NewController()
	ch, err := c.RequestChannel(hal.Request{
		Caps:     hal.CapSlave,
		Priority: hal.PriorityHigh,
		Filter:   hal.GeneralPurpose,
	})
	if err != nil {
		t.Fatalf("RequestChannel() error = %v", err)
	}
	defer ch.Release()

	if got := ch.Info().Index; got != 1 {
		t.Errorf("granted channel index = %d, want 1", got)
	}
}

func TestRequestChannel_Exclusive(t *testing.T) {
	c := NewController(ChannelSpec{Caps: hal.CapSlave | hal.CapGeneralPurpose})

	ch, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave})
	if err != nil {
		t.Fatalf("first RequestChannel() error = %v", err)
	}
	if c.Owned() != 1 {
		t.Errorf("Owned() = %d, want 1", c.Owned())
	}

	if _, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave}); !errors.Is(err, pkg.ErrNoChannelAvailable) {
		t.Errorf("second RequestChannel() error = %v, want ErrNoChannelAvailable", err)
	}

	if err := ch.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := ch.Release(); !errors.Is(err, ErrNotOwned) {
		t.Errorf("double Release() error = %v, want ErrNotOwned", err)
	}

	again, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave})
	if err != nil {
		t.Fatalf("RequestChannel() after release error = %v", err)
	}
	again.Release()
}

func TestRequestChannel_NoMatch(t *testing.T) {
	c := NewController(ChannelSpec{Caps: hal.CapSlave, Priority: hal.PriorityLow})

	_, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave, Priority: hal.PriorityHigh})
	if !errors.Is(err, pkg.ErrNoChannelAvailable) {
		t.Errorf("RequestChannel() error = %v, want ErrNoChannelAvailable", err)
	}
}

func TestController_Close(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		if _, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave}); err != nil {
			t.Fatalf("RequestChannel() error = %v", err)
		}
	}
	if c.Owned() != 3 {
		t.Fatalf("Owned() = %d, want 3", c.Owned())
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if c.Owned() != 0 {
		t.Errorf("Owned() after Close = %d, want 0", c.Owned())
	}
}

// =============================================================================
// Channel Configuration Tests
// =============================================================================

func TestChannel_ConfigureFixed(t *testing.T) {
	c := NewController()
	ch := requestConfigured(t, c)

	if got := ch.Width(); got != hal.BusWidth2Bytes {
		t.Errorf("Width() = %d, want 2", got)
	}
	if err := ch.Configure(m2m16); err != nil {
		t.Errorf("reapplying same config error = %v", err)
	}

	wide := m2m16
	wide.DstWidth = hal.BusWidth4Bytes
	if err := ch.Configure(wide); !errors.Is(err, ErrConfigFixed) {
		t.Errorf("Configure(different) error = %v, want ErrConfigFixed", err)
	}
}

func TestChannel_PrepareErrors(t *testing.T) {
	c := NewController()
	ch, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave})
	if err != nil {
		t.Fatalf("RequestChannel() error = %v", err)
	}
	defer ch.Release()

	cb := func(hal.Cookie, pkg.TransferStatus) {}
	src := hal.NewDescriptor(make([]byte, 16))

	if _, err := ch.Prepare(src, hal.NewDescriptor(make([]byte, 16)), cb); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Prepare() before Configure error = %v, want ErrNotConfigured", err)
	}

	if err := ch.Configure(m2m16); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	if _, err := ch.Prepare(src, hal.NewDescriptor(make([]byte, 8)), cb); !errors.Is(err, ErrDescriptorLengths) {
		t.Errorf("Prepare(mismatch) error = %v, want ErrDescriptorLengths", err)
	}
	if _, err := ch.Prepare(src, hal.NewDescriptor(make([]byte, 16)), nil); !errors.Is(err, pkg.ErrInvalidParameter) {
		t.Errorf("Prepare(nil callback) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := ch.Submit(nil); !errors.Is(err, pkg.ErrInvalidParameter) {
		t.Errorf("Submit(nil) error = %v, want ErrInvalidParameter", err)
	}
}

// =============================================================================
// Transfer Tests
// =============================================================================

func TestChannel_CopyAfterIssue(t *testing.T) {
	c := NewController()
	ch := requestConfigured(t, c)

	src := pattern(1023, 7)
	dst := make([]byte, len(src))
	done := make(chan completionEvent, 1)

	tx, err := ch.Prepare(hal.NewDescriptor(src), hal.NewDescriptor(dst), func(cookie hal.Cookie, status pkg.TransferStatus) {
		done <- completionEvent{cookie, status}
	})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	cookie, err := ch.Submit(tx)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if cookie <= 0 {
		t.Errorf("cookie = %d, want > 0", cookie)
	}

	select {
	case <-done:
		t.Fatal("transaction completed before IssuePending")
	case <-time.After(20 * time.Millisecond):
	}

	ch.IssuePending()

	select {
	case ev := <-done:
		if ev.cookie != cookie {
			t.Errorf("callback cookie = %d, want %d", ev.cookie, cookie)
		}
		if ev.status != pkg.TransferStatusSuccess {
			t.Errorf("callback status = %v, want success", ev.status)
		}
	case <-time.After(time.Second):
		t.Fatal("completion callback never fired")
	}

	if !bytes.Equal(dst, src) {
		t.Error("destination does not match source")
	}
	if got := ch.(*Channel).Completed(); got != 1 {
		t.Errorf("Completed() = %d, want 1", got)
	}
}

func TestChannel_CompletionOrder(t *testing.T) {
	c := NewController()
	ch := requestConfigured(t, c)

	done := make(chan completionEvent, 3)
	cb := func(cookie hal.Cookie, status pkg.TransferStatus) {
		done <- completionEvent{cookie, status}
	}

	var cookies []hal.Cookie
	for i := 0; i < 3; i++ {
		tx, err := ch.Prepare(hal.NewDescriptor(pattern(32, byte(i))), hal.NewDescriptor(make([]byte, 32)), cb)
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		cookie, err := ch.Submit(tx)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		cookies = append(cookies, cookie)
	}
	ch.IssuePending()

	for i, want := range cookies {
		select {
		case ev := <-done:
			if ev.cookie != want {
				t.Errorf("completion %d cookie = %d, want %d", i, ev.cookie, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("completion %d never fired", i)
		}
	}
}

func TestChannel_TerminateDropsWork(t *testing.T) {
	c := NewController(ChannelSpec{Caps: hal.CapSlave, Latency: 50 * time.Millisecond})
	ch := requestConfigured(t, c)

	dst := make([]byte, 64)
	fired := make(chan struct{}, 1)
	tx, err := ch.Prepare(hal.NewDescriptor(pattern(64, 1)), hal.NewDescriptor(dst), func(hal.Cookie, pkg.TransferStatus) {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := ch.Submit(tx); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	ch.IssuePending()

	if err := ch.Terminate(); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	select {
	case <-fired:
		t.Fatal("callback fired for terminated work")
	case <-time.After(150 * time.Millisecond):
	}
	if !bytes.Equal(dst, make([]byte, 64)) {
		t.Error("terminated work wrote to the destination")
	}
}

func TestChannel_FaultStatus(t *testing.T) {
	c := NewController(ChannelSpec{
		Caps:  hal.CapSlave,
		Fault: func(int) pkg.TransferStatus { return pkg.TransferStatusError },
	})
	ch := requestConfigured(t, c)

	dst := make([]byte, 16)
	done := make(chan pkg.TransferStatus, 1)
	tx, err := ch.Prepare(hal.NewDescriptor(pattern(16, 3)), hal.NewDescriptor(dst), func(_ hal.Cookie, status pkg.TransferStatus) {
		done <- status
	})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err := ch.Submit(tx); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	ch.IssuePending()

	select {
	case status := <-done:
		if status != pkg.TransferStatusError {
			t.Errorf("status = %v, want error", status)
		}
	case <-time.After(time.Second):
		t.Fatal("completion callback never fired")
	}
	if !bytes.Equal(dst, make([]byte, 16)) {
		t.Error("faulted transfer wrote to the destination")
	}
}

func TestChannel_NotOwned(t *testing.T) {
	c := NewController()
	ch, err := c.RequestChannel(hal.Request{Caps: hal.CapSlave})
	if err != nil {
		t.Fatalf("RequestChannel() error = %v", err)
	}
	if err := ch.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if err := ch.Configure(m2m16); !errors.Is(err, ErrNotOwned) {
		t.Errorf("Configure() after release error = %v, want ErrNotOwned", err)
	}
	if err := ch.Terminate(); !errors.Is(err, ErrNotOwned) {
		t.Errorf("Terminate() after release error = %v, want ErrNotOwned", err)
	}
}

func TestCopyUnits(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		width int
	}{
		{"even 16-bit", 1024, 2},
		{"odd 16-bit", 7, 2},
		{"32-bit tail", 10, 4},
		{"zero width", 5, 0},
		{"empty", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := pattern(tt.n, 9)
			dst := make([]byte, tt.n)
			copyUnits(dst, src, tt.width)
			if !bytes.Equal(dst, src) {
				t.Errorf("copyUnits(%d, width %d) mismatch", tt.n, tt.width)
			}
		})
	}
}
