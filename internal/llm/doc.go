// Package llm provides completion clients for the hosted language models used
// for compliance commentary. OpenAI (and any OpenAI-compatible server),
// Anthropic and Gemini are supported behind a single Client interface, with
// rate limiting and an optional retry policy applied by NewClient.
package llm
