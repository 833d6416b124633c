// Package soft provides a goroutine-backed copy engine implementing the
// [hal.Controller] and [hal.Channel] interfaces.
//
// Each owned channel runs a worker goroutine. Submitted transactions wait on
// the channel's pending queue until IssuePending moves them to the worker,
// which copies the source descriptor into the destination in bus-width units
// and then invokes the completion callback from the worker goroutine. This
// mirrors the asynchronous completion notification of a hardware DMA engine:
// the callback never runs on the goroutine that submitted the work.
//
// # Channel Layout
//
// [DefaultChannels] models a controller whose channel 0 is reserved for the
// controller's own command traffic and whose remaining channels are general
// purpose:
//
//	ctrl := soft.NewController()            // 32 channels, ch0 reserved
//	ch, err := ctrl.RequestChannel(hal.Request{
//	    Caps:     hal.CapSlave,
//	    Priority: hal.PriorityHigh,
//	    Filter:   hal.GeneralPurpose,
//	})
//
// # Simulation Hooks
//
// [ChannelSpec.Latency] delays every transaction, and [ChannelSpec.Fault]
// lets a test or harness report error completions without touching the
// destination memory.
package soft
