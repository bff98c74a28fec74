//go:build temperature

package main

import _ "embed"

//go:embed profiles/temperature.yaml
var profile []byte
