// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package triage

// Error codes returned in ErrorResponse.Code.
const (
	// CodeInvalidRequest indicates a malformed or incomplete request body.
	CodeInvalidRequest = "INVALID_REQUEST"

	// CodeOracleFault indicates the reasoning model returned something
	// the loop could not use (malformed decision or unknown tool).
	CodeOracleFault = "ORACLE_FAULT"

	// CodeUpstreamError indicates the reasoning model endpoint was
	// unreachable or failed.
	CodeUpstreamError = "UPSTREAM_ERROR"

	// CodeDataSourceError indicates a diagnostic tool could not read
	// its backing data.
	CodeDataSourceError = "DATA_SOURCE_ERROR"

	// CodeInternalError indicates an unexpected server-side failure.
	CodeInternalError = "INTERNAL_ERROR"
)
