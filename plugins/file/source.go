/*
Copyright 2018 Turbine Labs, Inc.

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

package file

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/turbinelabs/codec"
	tbnos "github.com/turbinelabs/nonstdlib/os"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/reconciler"
)

type taskParser = func(io.Reader) (map[string][]api.Task, error)

type fileCluster struct {
	ClusterName string     `json:"cluster"`
	Tasks       []api.Task `json:"tasks"`
}

func mkParser(codec codec.Codec) taskParser {
	return func(reader io.Reader) (map[string][]api.Task, error) {
		fileClusters := []fileCluster{}

		err := codec.Decode(reader, &fileClusters)
		if err != nil {
			return nil, err
		}

		clusters := make(map[string][]api.Task, len(fileClusters))
		for _, fc := range fileClusters {
			if _, exists := clusters[fc.ClusterName]; exists {
				return nil, fmt.Errorf("duplicate cluster: %s", fc.ClusterName)
			}

			tasks := make([]api.Task, len(fc.Tasks))
			copy(tasks, fc.Tasks)
			sort.Sort(api.TasksByID(tasks))
			clusters[fc.ClusterName] = tasks
		}

		return clusters, nil
	}
}

// NewTaskSource returns a reconciler.TaskSource that reads the tasks of each
// cluster from the given file, decoded with the given codec. The file is
// re-read on every call. A cluster that does not appear in the file is an
// error; list it with no tasks to remove all of its entries.
func NewTaskSource(file string, codec codec.Codec) reconciler.TaskSource {
	return &fileSource{
		file:   file,
		parser: mkParser(codec),
		os:     tbnos.New(),
	}
}

type fileSource struct {
	file   string
	parser taskParser
	os     tbnos.OS
}

func (s *fileSource) ListTasks(ctx context.Context, clusterID string) ([]api.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := s.os.Open(s.file)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	clusters, err := s.parser(file)
	if err != nil {
		return nil, err
	}

	tasks, ok := clusters[clusterID]
	if !ok {
		return nil, fmt.Errorf("cluster %s not found in %s", clusterID, s.file)
	}

	return tasks, nil
}
