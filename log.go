/*
   Copyright 2021 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strips

import "go.uber.org/zap"

// Logger wraps the structured logger used to trace planner search
// progress. The original Python source (planning/settings.py) wired a
// module logger and called log.debug throughout breadth_first_plan_search;
// this is the same ambient concern, implemented with zap. The zero value
// is not usable; use newNopLogger or WithLogger.
type Logger struct {
	z *zap.Logger
}

// NewLogger wraps an existing zap.Logger for use with WithLogger.
func NewLogger(z *zap.Logger) Logger {
	if z == nil {
		return newNopLogger()
	}
	return Logger{z: z}
}

func newNopLogger() Logger {
	return Logger{z: zap.NewNop()}
}

func (l Logger) debug(msg string, fields ...zap.Field) {
	l.z.Debug(msg, fields...)
}
