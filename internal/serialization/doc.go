// Package serialization implements the .crtx model container format.
//
// A .crtx file is a binary container for named tensors plus JSON
// metadata. Version 1 layout:
//
//	[0x00] magic "CRTX" (4 bytes)
//	[0x04] format version (uint32, little endian)
//	[0x08] flags (uint32, little endian)
//	[0x0C] header size (uint64, little endian)
//	[....] JSON header
//	[....] zero padding to a 64-byte boundary
//	[....] tensor data, offsets relative to the data section
//
// Version 2 uses a fixed 64-byte preamble that additionally carries
// the data section size and a SHA-256 checksum of the tensor data:
//
//	[0x00] magic "CRTX" (4 bytes)
//	[0x04] format version (uint32)
//	[0x08] flags (uint32)
//	[0x0C] reserved (uint32)
//	[0x10] header size (uint64)
//	[0x18] data size (uint64)
//	[0x20] SHA-256 checksum of the data section (32 bytes)
//	[0x40] JSON header, zero padding, tensor data
package serialization
