// Copyright © 2018 One Concern

package splitter

import (
	"fmt"

	"github.com/oneconcern/splitsip/pkg/sip"
	"github.com/oneconcern/splitsip/pkg/splitter/status"
)

// Outcome of a split
type Outcome uint8

const (
	// OutcomeEmpty means that the source package has no edited object
	OutcomeEmpty Outcome = iota
	// OutcomeNoSplit means that the source package does not exceed the maximum number of objects
	OutcomeNoSplit
	// OutcomeSplit means that target packages have been produced
	OutcomeSplit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeNoSplit:
		return "no-split"
	case OutcomeSplit:
		return "split"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// PlannedPackage is a target package with the objects assigned to it
type PlannedPackage struct {
	Num     int
	Name    string
	Objects []string
}

// Plan assigns objects to target packages
type Plan struct {
	Outcome  Outcome
	Objects  int
	Packages []PlannedPackage
}

// NumPackages yields the number of packages needed to hold count objects,
// no more than maxObjects per package.
func NumPackages(count, maxObjects int) int {
	if count <= 0 || maxObjects <= 0 {
		return 0
	}
	return (count + maxObjects - 1) / maxObjects
}

// MakePlan assigns objects to packages, in order.
//
// No package is planned when there are no objects or when they all fit in
// a single package. Otherwise, every package but the last holds exactly
// maxObjects objects.
func MakePlan(objects []string, maxObjects int, prefix string) (Plan, error) {
	if maxObjects < 1 {
		return Plan{}, status.ErrInvalidMaxObjects.Wrap(fmt.Errorf("got %d", maxObjects))
	}
	switch {
	case len(objects) == 0:
		return Plan{Outcome: OutcomeEmpty}, nil
	case len(objects) <= maxObjects:
		return Plan{Outcome: OutcomeNoSplit, Objects: len(objects)}, nil
	}

	numPackages := NumPackages(len(objects), maxObjects)
	plan := Plan{
		Outcome:  OutcomeSplit,
		Objects:  len(objects),
		Packages: make([]PlannedPackage, numPackages),
	}
	for i := range plan.Packages {
		plan.Packages[i] = PlannedPackage{
			Num:  i + 1,
			Name: sip.PackageName(prefix, i+1),
		}
	}

	packageIndex, objectsPackaged := 0, 0
	for _, object := range objects {
		if objectsPackaged == maxObjects {
			packageIndex++
			objectsPackaged = 0
		}
		pkg := &plan.Packages[packageIndex]
		pkg.Objects = append(pkg.Objects, object)
		objectsPackaged++
	}
	return plan, nil
}

// Collisions tells whether several planned packages share the same folder name
func (p Plan) Collisions() bool {
	seen := make(map[string]struct{}, len(p.Packages))
	for _, pkg := range p.Packages {
		if _, ok := seen[pkg.Name]; ok {
			return true
		}
		seen[pkg.Name] = struct{}{}
	}
	return false
}
