// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

/*
Package logger provides structured JSON logging for KASPER engine
components.

# Overview

The logger outputs one JSON object per line to stdout, making logs
directly consumable by CloudWatch, ELK, or any other log aggregation
system.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (engine, provider id, etc.)
  - Instance ID and container name (for distributed tracing)
  - Request ID (for request correlation)

# Usage

	log := logger.New("engine")
	log.Info(requestID, "insight generated", map[string]interface{}{
		"feature": "daily_card",
		"tier":    "excellent",
	})

Request IDs thread a single generation request through the orchestrator,
providers, and strategies; pass "" when no request is in flight.
*/
package logger
