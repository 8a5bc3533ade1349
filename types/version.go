package types

// Version is the canonical project version.
// The CLI, wire contract, and export source tag share this version.
const Version = "0.2.0"

// ExportSource is the GOOD "source" field value stamped on every export.
const ExportSource = "Irminsul"
