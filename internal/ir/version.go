package ir

// ProgramVersion is reported by the CLI and stamped on host call log entries.
const ProgramVersion = "0.1.0"
