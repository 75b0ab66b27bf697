package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotSummarized indicates a chat about a paper that was never summarized
	ErrNotSummarized = errors.New("please summarize the paper first")
	// ErrExtraction indicates the paper text could not be fetched or parsed
	ErrExtraction = errors.New("text extraction failed")
	// ErrTextTooShort indicates the extracted text is below the usable minimum
	ErrTextTooShort = errors.New("could not extract enough text from the provided URL")
	// ErrOracle indicates the LLM call failed
	ErrOracle = errors.New("llm request failed")
	// ErrUnrecognizedResponse indicates the LLM answered with no extractable text
	ErrUnrecognizedResponse = errors.New("llm response has no text")
	// ErrInvalidChunking indicates an unusable chunk size / overlap pair
	ErrInvalidChunking = errors.New("invalid chunking configuration")
)
