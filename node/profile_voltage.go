//go:build !temperature

package main

import _ "embed"

//go:embed profiles/voltage.yaml
var profile []byte
