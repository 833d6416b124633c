// Package hal defines the Hardware Abstraction Layer interface for
// memory-to-memory copy engines.
//
// The HAL sits between the transfer engine and the DMA controller. A
// [Controller] hands out exclusive [Channel] handles; a channel accepts
// descriptor pairs, queues them, and reports completion through a callback
// invoked from whatever goroutine the hardware notification arrives on.
//
// # Design Principles
//
// The HAL is designed to be:
//   - Minimal: only the operations the engine needs to move one block
//   - Asynchronous: completion is reported by callback, never by polling
//   - Exclusive: a channel has exactly one owner between request and release
//
// # Channel Lifecycle
//
//  1. [Controller.RequestChannel] with a [Request] describing capabilities
//  2. [Channel.Configure] with a [SlaveConfig] (direction, bus width)
//  3. For each transfer: [Channel.Prepare], [Channel.Submit],
//     [Channel.IssuePending], then wait for the callback
//  4. [Channel.Release] at shutdown
//
// A goroutine-backed software engine is available in
// [github.com/ardnew/softdma/dma/hal/soft].
package hal
