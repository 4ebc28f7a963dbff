// Package runtime defines the ContainerRuntime interface used to reach a
// project's running devcontainer and a docker/podman command-line
// implementation. DispatchRuntime selects the implementation from the
// configured runtime name.
package runtime
