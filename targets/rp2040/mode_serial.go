//go:build rp2040 && serialplot

package main

const serialPlot = true
