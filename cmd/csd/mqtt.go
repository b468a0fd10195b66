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
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings connects the service to an MQTT broker: applied
// operations go out on PubTopic, and messages arriving on SubTopic
// are parsed as SOps and applied.
type MQTTCouplings struct {
	// Broker is the broker URL ("tcp://localhost:1883").
	Broker string

	// ClientId is the optional MQTT client id.
	ClientId string

	// PubTopic receives every applied operation as JSON.
	PubTopic string

	// SubTopic, if not empty, is subscribed to for in-bound SOps.
	SubTopic string

	QoS byte

	// KeepAlive in seconds.
	KeepAlive int

	client mqtt.Client
}

// Start connects to the broker, subscribes (if SubTopic is given),
// and starts the out-bound publishing loop.
func (m *MQTTCouplings) Start(ctx context.Context, s *Service) error {
	if m.KeepAlive == 0 {
		m.KeepAlive = 10
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.Broker)
	opts.SetClientID(m.ClientId)
	opts.SetKeepAlive(time.Second * time.Duration(m.KeepAlive))
	opts.AutoReconnect = true
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	if m.SubTopic != "" {
		opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
			var op SOp
			if err := json.Unmarshal(msg.Payload(), &op); err != nil {
				s.err(fmt.Errorf("MQTT can't parse %s: %v", msg.Payload(), err))
				return
			}
			if err := op.Do(ctx, s); err != nil {
				// Conveyed to the feeds via op.Err.
				s.err(err)
			}
		}
	}

	m.client = mqtt.NewClient(opts)

	if t := m.client.Connect(); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	if m.SubTopic != "" {
		if t := m.client.Subscribe(m.SubTopic, m.QoS, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}

	ops := s.feed()

	go func() {
		for {
			select {
			case <-ctx.Done():
				m.client.Disconnect(100)
				return
			case x := <-ops:
				js, err := json.Marshal(&x)
				if err != nil {
					s.err(err)
					continue
				}
				if t := m.client.Publish(m.PubTopic, m.QoS, false, js); t.Wait() && t.Error() != nil {
					s.err(t.Error())
				}
			}
		}
	}()

	return nil
}
