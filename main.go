// Command wh-autoscaler replays warehouse observation CSVs through the
// Q-learning controller and writes a size recommendation per row.
package main

import (
	"github.com/joshelser/opscenter-autoscaler/cmd"
)

func main() {
	cmd.Execute()
}
