package ui

// iconBytes is a 16x16 RGBA PNG of three staggered timeline bars.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x1f, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0x18, 0x05, 0x70,
	0xa0, 0x9d, 0xf3, 0xe1, 0x3f, 0x21, 0x4c, 0x5b, 0x03, 0x46, 0xbd, 0x83,
	0xdf, 0x56, 0xfa, 0x18, 0x30, 0x82, 0x01, 0x00, 0x23, 0x87, 0x7e, 0x2d,
	0x87, 0xfd, 0x76, 0xab, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44,
	0xae, 0x42, 0x60, 0x82,
}
