package turing

// Version is the release version, set at build time with
// -ldflags "-X github.com/aretw0/turing.Version=...".
var Version = "dev"
