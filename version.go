package feel

// Version is the engine release tag reported by the CLI.
const Version = "0.3.0"
