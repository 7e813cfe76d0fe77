// Package services implements the driving port interfaces.
// Services contain the core search logic and orchestrate calls to
// driven ports: loaders, the preprocess pipeline, the proximity engine
// and the config store.
//
// Host wraps a SearchService with the engine lifecycle and the message
// protocol used by the pipe adapter.
package services
