package ports

// ObsidianOpener opens vault files in the Obsidian app.
type ObsidianOpener interface {
	// OpenFile opens a task file in Obsidian via the obsidian:// URI
	// scheme. filePath must be an absolute path inside the vault.
	OpenFile(filePath string) error
}
