/* Copyright 2023 Jens Keiner
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

package csio

import (
	"context"
	"log"
	"time"

	"github.com/jenskeiner/exchange-calendars-extensions-api/registry"

	"github.com/gorhill/cronexpr"
)

// Checkpointer periodically writes a registry to a store on a cron
// schedule.
type Checkpointer struct {
	// Schedule is a cron expression ("0 * * * *" for hourly).
	Schedule string

	Store    Store
	Registry *registry.Registry

	// Errors, if not nil, receives checkpoint errors.  If the
	// channel blocks, the error is logged instead.
	Errors chan error
}

// Start validates the schedule and runs checkpoints until ctx is
// done.  The first checkpoint happens at the schedule's next firing,
// not immediately.
func (c *Checkpointer) Start(ctx context.Context) error {
	sched, err := cronexpr.Parse(c.Schedule)
	if err != nil {
		return err
	}

	go func() {
		for {
			next := sched.Next(time.Now())
			if next.IsZero() {
				log.Printf("Checkpointer schedule %q has no next firing", c.Schedule)
				return
			}
			t := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			if err := c.checkpoint(ctx); err != nil {
				c.err(err)
			}
		}
	}()

	return nil
}

// Checkpoint writes the registry once, now.
func (c *Checkpointer) Checkpoint(ctx context.Context) error {
	return c.checkpoint(ctx)
}

func (c *Checkpointer) checkpoint(ctx context.Context) error {
	// Copy first so the store never sees a registry mid-mutation.
	return c.Store.WriteRegistry(ctx, c.Registry.Copy())
}

func (c *Checkpointer) err(err error) {
	if c.Errors != nil {
		select {
		case c.Errors <- err:
			return
		default:
		}
	}
	log.Printf("Checkpointer error %s", err)
}
