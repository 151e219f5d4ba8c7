// Package pipeline runs a validation pass as a sequence of steps.
//
// A run moves through four stages: discover the markdown files under the
// root, extract their headings and links, resolve every document into an
// anchor index, and check each link against that index and the filesystem.
// Each stage is implemented as a Step that receives the shared State and
// adds to it. Reporting is left to the caller, which receives the finished
// model.Run.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It provides consistent error handling and logging across steps
// 2. It supports cancellation via context between stages
// 3. The CLI, watch mode and the MCP server all run the same stages
//
// Document loading is parallel with a bounded errgroup; every other stage
// runs on a single goroutine. Results are stored by discovery index so the
// output never depends on scheduling.
package pipeline
