// Package report renders search results.
//
// Writers for three formats share the Writer interface:
//   - TextWriter: human-readable terminal output
//   - MarkdownWriter: a Markdown document for sharing
//   - JSONWriter: structured output for tool integration
//
// Progress is a streaming sink that prints itineraries and progress updates
// while a search is still running.
package report
