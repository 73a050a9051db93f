/* Copyright 2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package util has a switchable debug logger for commands.
package util

import (
	"io"
	"log"
	"os"
)

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf writes to the debug logger.
var Logging = false

var logger = log.New(os.Stderr, "debug ", log.LstdFlags)

// SetOutput sets where Logf writes.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Logf logs if Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	logger.Printf(format, args...)
}
