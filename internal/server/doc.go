// Package server implements the MCP (Model Context Protocol) server for
// image strip tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and get its metadata
//   - image_parse_color: Resolve a border color specification
//   - image_strip_plan: Compute a strip layout without rendering
//   - image_strip_merge: Render a strip and write it to a file
//
// The strip tools take the same options as the command line, with the same
// defaults. image_strip_merge writes to output_path, or to a uniquely named
// file in the output directory when none is given.
//
// # Image Caching
//
// Loaded images are cached by path or URL and reused across tool calls for
// the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The failing stage and cause, e.g. "color parse: invalid color: ..."
//
// # Usage
//
//	srv := server.New(logger, server.WithVersion(version))
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
