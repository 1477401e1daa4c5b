package output

// SchemaVersion is the current version of the NDJSON output schema.
// Increment this when making breaking changes to a record type.
const SchemaVersion = 1
