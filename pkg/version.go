package fieldlog

// Version is the current fieldlog release.
const Version = "0.1.0"
