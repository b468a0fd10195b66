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

package main

import (
	"context"
	"fmt"

	"github.com/jenskeiner/exchange-calendars-extensions-api/changes"
	. "github.com/jenskeiner/exchange-calendars-extensions-api/util/testutil"
)

// SOp is a Service Operation.
//
// Exchange names the changeset the operation targets.  Only one of
// the operation fields should have a value.
type SOp struct {
	// Exchange is the target changeset.  Required for everything
	// except Exchanges and Checkpoint.
	Exchange string `json:"exchange,omitempty" yaml:",omitempty"`

	// Add adds a day to the exchange's changeset.
	Add *OpAdd `json:"add,omitempty" yaml:",omitempty"`

	// Remove marks a day for removal.
	Remove *OpRemove `json:"remove,omitempty" yaml:",omitempty"`

	// SetTags replaces the tags on a date.
	SetTags *OpSetTags `json:"setTags,omitempty" yaml:",omitempty"`

	// SetComment replaces the comment on a date.
	SetComment *OpSetComment `json:"setComment,omitempty" yaml:",omitempty"`

	// ClearDay reverts the changes for a single date.
	ClearDay *OpClearDay `json:"clearDay,omitempty" yaml:",omitempty"`

	// Clear reverts the whole changeset.
	Clear *OpClear `json:"clear,omitempty" yaml:",omitempty"`

	// Get returns a copy of the exchange's changeset.
	Get *OpGet `json:"get,omitempty" yaml:",omitempty"`

	// Rem drops the exchange from the registry entirely.
	Rem *OpRem `json:"rem,omitempty" yaml:",omitempty"`

	// Exchanges lists the exchanges in the registry.
	Exchanges *OpExchanges `json:"exchanges,omitempty" yaml:",omitempty"`

	// Checkpoint writes the whole registry to storage now.
	Checkpoint *OpCheckpoint `json:"checkpoint,omitempty" yaml:",omitempty"`

	// Error will hold an error (if any) that results from
	// processing this operation.
	Error error `json:"-" yaml:"-"`

	// Err will hold a string representation of an error (if any)
	// that results from processing this operation.
	Err string `json:"err,omitempty" yaml:",omitempty"`
}

// erred is a utility function to return values to assign to operation
// Error and Err fields.
func erred(err error) (error, string) {
	if err == nil {
		return nil, ""
	}
	return err, err.Error()
}

func (o *SOp) Do(ctx context.Context, s *Service) error {

	s.trf("SOp.Do %s", JS(o))

	var err error
	switch {
	case o.Add != nil:
		err = o.Add.Do(ctx, s, o.Exchange)
	case o.Remove != nil:
		err = o.Remove.Do(ctx, s, o.Exchange)
	case o.SetTags != nil:
		err = o.SetTags.Do(ctx, s, o.Exchange)
	case o.SetComment != nil:
		err = o.SetComment.Do(ctx, s, o.Exchange)
	case o.ClearDay != nil:
		err = o.ClearDay.Do(ctx, s, o.Exchange)
	case o.Clear != nil:
		err = o.Clear.Do(ctx, s, o.Exchange)
	case o.Get != nil:
		err = o.Get.Do(ctx, s, o.Exchange)
	case o.Rem != nil:
		err = o.Rem.Do(ctx, s, o.Exchange)
	case o.Exchanges != nil:
		err = o.Exchanges.Do(ctx, s)
	case o.Checkpoint != nil:
		err = s.Checkpoint(ctx)
	default:
		err = fmt.Errorf("not implemented: %s", JS(o))
	}

	if err != nil && o.Error == nil {
		o.Error, o.Err = erred(err)
	}

	if o.Error == nil {
		s.op(ctx, map[string]interface{}{
			"did": o,
		})
	}

	return o.Error
}

// update applies f to the exchange's changeset and writes the result
// through to storage.
func update(ctx context.Context, s *Service, exchange string, f func(*changes.ChangeSet) error) error {
	if exchange == "" {
		return fmt.Errorf("no exchange given")
	}
	if err := s.registry.Update(exchange, f); err != nil {
		return err
	}
	s.persist(ctx, exchange)
	return nil
}

type OpAdd struct {
	Date string `json:"date"`

	// Props is the wire shape of the day's properties: "type",
	// "name", and "time" where the type wants one.
	Props map[string]interface{} `json:"props"`
}

func (o *OpAdd) Do(ctx context.Context, s *Service, exchange string) error {
	d, err := changes.ParseDate(o.Date)
	if err != nil {
		return err
	}
	p, err := changes.ParseProps(o.Props)
	if err != nil {
		return err
	}
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		return cs.AddDay(d, p)
	})
}

type OpRemove struct {
	Date string `json:"date"`
}

func (o *OpRemove) Do(ctx context.Context, s *Service, exchange string) error {
	d, err := changes.ParseDate(o.Date)
	if err != nil {
		return err
	}
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		return cs.RemoveDay(d)
	})
}

type OpSetTags struct {
	Date string   `json:"date"`
	Tags []string `json:"tags"`
}

func (o *OpSetTags) Do(ctx context.Context, s *Service, exchange string) error {
	d, err := changes.ParseDate(o.Date)
	if err != nil {
		return err
	}
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		cs.SetTags(d, o.Tags)
		return nil
	})
}

type OpSetComment struct {
	Date    string `json:"date"`
	Comment string `json:"comment"`
}

func (o *OpSetComment) Do(ctx context.Context, s *Service, exchange string) error {
	d, err := changes.ParseDate(o.Date)
	if err != nil {
		return err
	}
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		cs.SetComment(d, o.Comment)
		return nil
	})
}

type OpClearDay struct {
	Date string `json:"date"`
	Meta bool   `json:"meta,omitempty"`
}

func (o *OpClearDay) Do(ctx context.Context, s *Service, exchange string) error {
	d, err := changes.ParseDate(o.Date)
	if err != nil {
		return err
	}
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		cs.ClearDay(d, o.Meta)
		return nil
	})
}

type OpClear struct {
	Meta bool `json:"meta,omitempty"`
}

func (o *OpClear) Do(ctx context.Context, s *Service, exchange string) error {
	return update(ctx, s, exchange, func(cs *changes.ChangeSet) error {
		cs.Clear(o.Meta)
		return nil
	})
}

type OpGet struct {
	// ChangeSet receives a copy of the exchange's changeset.
	ChangeSet *changes.ChangeSet `json:"changeSet,omitempty"`
}

func (o *OpGet) Do(ctx context.Context, s *Service, exchange string) error {
	if exchange == "" {
		return fmt.Errorf("no exchange given")
	}
	cs, have := s.registry.Get(exchange)
	if !have {
		return fmt.Errorf("unknown exchange \"%s\"", exchange)
	}
	o.ChangeSet = cs.Copy()
	return nil
}

type OpRem struct {
}

func (o *OpRem) Do(ctx context.Context, s *Service, exchange string) error {
	if exchange == "" {
		return fmt.Errorf("no exchange given")
	}
	if !s.registry.Delete(exchange) {
		return fmt.Errorf("unknown exchange \"%s\"", exchange)
	}
	s.persist(ctx, exchange)
	return nil
}

type OpExchanges struct {
	// Names receives the exchange names in order.
	Names []string `json:"names,omitempty"`
}

func (o *OpExchanges) Do(ctx context.Context, s *Service) error {
	o.Names = s.registry.Names()
	return nil
}

type OpCheckpoint struct {
}
