// Package ccd models one read-out frame of the TCD1304 linear image sensor.
package ccd

// A frame is a fixed run of 3800 ADC counts, 12 significant bits each,
// widened to uint16. The package provides the summary statistics and the
// two text encodings used on the serial link: one decimal count per line,
// or pairs of base64 symbols packing 20 counts into a 40 character line.
//
// Producer: reader firmware
// Consumer: host-side tooling
