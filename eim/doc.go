// Package eim configures the external bus that connects the host to the
// programmable-logic device.
//
// Four named parameters control the bus:
//
//   - dmode: download mode, 1 (program) or 2 (parameters)
//   - MUM: address/data multiplexing, 0 or 1
//   - BCD: burst clock divisor, 0 (132 MHz) to 3 (33 MHz)
//   - WWSC: write wait states, 0 to 63
//
// Values outside a parameter's range are clamped, never rejected. A
// [Service] reads and writes parameters; [Bus] implements it over a
// chip-select register bank and [SysfsService] over a sysfs attribute
// directory.
//
// [Port] routes a download by the current mode: program downloads go to a
// configuration loader, parameter downloads to a data window.
//
// [Widen16] and [Narrow8] convert between byte streams and the 16-bit bus
// word layout.
package eim
