//go:build !unix

package main

import "github.com/iburimskiy/corner-viz/internal/stimulus"

func notifyFileReady(*stimulus.Bus) {}
