// Package fpp loads a configuration bitstream into a programmable-logic
// device over a fast passive parallel interface.
//
// The handshake is driven through GPIO pins from
// [periph.io/x/conn/v3/gpio]:
//
//  1. Drive nCONFIG low for at least 500 ns, then high.
//  2. nSTATUS must read low immediately, then high after at least 230 µs.
//  3. Wait at least 2 µs.
//  4. Clock each byte onto the 8-bit data bus on a rising edge of DCLK.
//  5. CONF_DONE must read high.
//
// The bitstream is not parsed or validated. A [Loader] admits one session
// at a time; [SimTarget] is a simulated device for tests and harnesses.
package fpp
