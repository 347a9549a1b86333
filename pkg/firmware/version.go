package firmware

// Version is reported by the v command.
const Version = "v0.2 2026-08-11 TCD1304DG linear-image-sensor reader"
