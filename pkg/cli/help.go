/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"fmt"
	"io"
)

// ShowHelp displays the available commands.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `gatectl: trigger and configure the gatekeeper gate relay

Usage:
  gatectl [-config path] <command> [options]

Global options:
  -config string   path to the gatekeeper service config (JSON); defaults apply when empty
  -help            show this help message
  -version         print the version and exit

Commands:
  trigger [-tui] [-json]         open the gate and stream its state
  probe [-json] [kind:host ...]  check reachability of targets or configured endpoints
  endpoint list                  list configured device endpoints
  endpoint add -kind K -host H [-port P] [-protocol mqtt|nats]
               [-request-topic T] [-state-topic T] [-id ID]
  endpoint remove -id ID         remove an endpoint and credentials it owns
  broker set -host H [-port P] [-username U] [-password P]
  targets list                   list reachability targets
  targets set kind:host[:port] ...

Examples:
  gatectl endpoint add -kind datagram -host 192.168.4.1
  gatectl endpoint add -kind broker -host broker.local -protocol nats
  gatectl broker set -host broker.local -port 4222 -username gate -password secret
  gatectl targets set datagram:192.168.4.1 broker:broker.local
  gatectl trigger -tui
`)
}
